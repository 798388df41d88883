package sandbox

// harnessSource is the fixed Python entry point executed for every query.
// It rebuilds the analysis namespace from scratch in an isolated process:
// the dataset is re-read from disk, so generated code can never mutate the
// server's in-memory copy or leak state into another query. Generated code
// writes charts only through the PLOT_PATH binding.
//
// Exit code 3 marks an exception raised by the generated code; the error
// text on stderr feeds the correction prompt.
const harnessSource = `import sys

import matplotlib
matplotlib.use("Agg")

import numpy as np
import pandas as pd
import matplotlib.pyplot as plt
import seaborn as sns


def main():
    data_path, code_path, plot_path = sys.argv[1], sys.argv[2], sys.argv[3]
    df = pd.read_csv(data_path)
    with open(code_path) as f:
        code = f.read()
    ns = {
        "df": df,
        "pd": pd,
        "np": np,
        "plt": plt,
        "sns": sns,
        "PLOT_PATH": plot_path,
    }
    try:
        exec(compile(code, "<generated>", "exec"), ns)
    except Exception as exc:
        print(f"{type(exc).__name__}: {exc}", file=sys.stderr)
        sys.exit(3)
    finally:
        plt.close("all")


if __name__ == "__main__":
    main()
`
